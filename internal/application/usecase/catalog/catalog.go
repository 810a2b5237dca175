package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/DioGolang/GoTraffic/internal/domain/entity"
)

const DefaultSize = 10

var defaultProducts = []entity.Product{
	{ID: "1", Name: "Contoso Catnip's Friend", Price: 9.99, Description: "Watch your feline friend embark on a fishing adventure with Contoso Catnip's Friend toy. Packed with irresistible catnip and dangling fish lure."},
	{ID: "2", Name: "Salty Sailor's Squeaky Squid", Price: 6.99, Description: "Let your dog set sail with the Salty Sailor's Squeaky Squid. This interactive toy provides hours of fun, featuring multiple squeakers and crinkle tentacles."},
	{ID: "3", Name: "Mermaid's Mice Trio", Price: 12.99, Description: "Entertain your kitty with the Mermaid's Mice Trio. These adorable plush mice are dressed as mermaids and filled with catnip to captivate their curiosity."},
	{ID: "4", Name: "Ocean Explorer's Puzzle Ball", Price: 11.99, Description: "Challenge your pet's problem-solving skills with the Ocean Explorer's Puzzle Ball. This interactive toy features hidden compartments and treats, providing mental stimulation and entertainment."},
	{ID: "5", Name: "Pirate Parrot Teaser Wand", Price: 8.99, Description: "Engage your cat in a playful pursuit with the Pirate Parrot Teaser Wand. The colorful feathers and jingling bells mimic the mischievous charm of a pirate's parrot."},
	{ID: "6", Name: "Seafarer's Tug Rope", Price: 14.99, Description: "Tug-of-war meets nautical adventure with the Seafarer's Tug Rope. Made from marine-grade rope, it's perfect for interactive play and promoting dental health in dogs."},
	{ID: "7", Name: "Seashell Snuggle Bed", Price: 19.99, Description: "Give your furry friend a cozy spot to curl up with the Seashell Snuggle Bed. Shaped like a seashell, this plush bed provides comfort and relaxation for cats and small dogs."},
	{ID: "8", Name: "Nautical Knot Ball", Price: 7.99, Description: "Unleash your dog's inner sailor with the Nautical Knot Ball. Made from sturdy ropes, it's perfect for fetching, tugging, and satisfying their chewing needs."},
	{ID: "9", Name: "Contoso Claw's Crabby Cat Toy", Price: 3.99, Description: "Watch your cat go crazy for Contoso Claw's Crabby Cat Toy. This crinkly and catnip-filled toy will awaken their hunting instincts and provide endless entertainment."},
	{ID: "10", Name: "Ahoy Doggy Life Jacket", Price: 5.99, Description: "Ensure your furry friend stays safe during water adventures with the Ahoy Doggy Life Jacket. Designed for dogs, this flotation device offers buoyancy and visibility in style."},
}

type UseCase interface {
	GetProduct(ctx context.Context, id string) (entity.Product, error)
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

// Catalog is a read-only product table built once at startup.
type Catalog struct {
	products []entity.Product
	byID     map[string]entity.Product
}

var _ UseCase = (*Catalog)(nil)

func NewCatalog(size int) *Catalog {
	if size <= 0 {
		size = DefaultSize
	}
	products := make([]entity.Product, size)
	for i := range products {
		if i < len(defaultProducts) {
			products[i] = defaultProducts[i]
			continue
		}
		products[i] = synthesize(strconv.Itoa(i + 1))
	}

	byID := make(map[string]entity.Product, size)
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// GetProduct never misses: an id outside the table yields a synthesized product
// carrying that id.
func (c *Catalog) GetProduct(_ context.Context, id string) (entity.Product, error) {
	if id == "" {
		return entity.Product{}, entity.ErrIDIsRequired
	}
	if p, ok := c.byID[id]; ok {
		return p, nil
	}
	return synthesize(id), nil
}

func (c *Catalog) ListProducts(_ context.Context) ([]entity.Product, error) {
	return append([]entity.Product(nil), c.products...), nil
}

func (c *Catalog) Size() int {
	return len(c.products)
}

func synthesize(id string) entity.Product {
	return entity.Product{
		ID:          id,
		Name:        fmt.Sprintf("Product %s", id),
		Description: fmt.Sprintf("Description %s", id),
		Price:       99.99,
	}
}
