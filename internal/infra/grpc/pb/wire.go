package pb

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers follow mensagem.proto and product_service.proto.
const (
	fieldConteudo protowire.Number = 1
	fieldResposta protowire.Number = 1

	fieldProductID          protowire.Number = 1
	fieldProductName        protowire.Number = 2
	fieldProductDescription protowire.Number = 3
	fieldProductPrice       protowire.Number = 4

	fieldProducts protowire.Number = 1
)

// fieldFunc decodes one field. It reports false for fields it does not know,
// which are then skipped.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, bool)

func decodeFields(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, ok := field(num, typ, b)
		if !ok {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 && !math.Signbit(v) {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func consumeString(dst *string, typ protowire.Type, b []byte) (int, bool) {
	if typ != protowire.BytesType {
		return 0, false
	}
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n, true
}

func consumeDouble(dst *float64, typ protowire.Type, b []byte) (int, bool) {
	if typ != protowire.Fixed64Type {
		return 0, false
	}
	v, n := protowire.ConsumeFixed64(b)
	if n >= 0 {
		*dst = math.Float64frombits(v)
	}
	return n, true
}

func (x *MensagemRequest) appendWire(b []byte) []byte {
	return appendString(b, fieldConteudo, x.GetConteudo())
}

func (x *MensagemRequest) unmarshalWire(b []byte) error {
	*x = MensagemRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num == fieldConteudo {
			return consumeString(&x.Conteudo, typ, b)
		}
		return 0, false
	})
}

func (x *MensagemResponse) appendWire(b []byte) []byte {
	return appendString(b, fieldResposta, x.GetResposta())
}

func (x *MensagemResponse) unmarshalWire(b []byte) error {
	*x = MensagemResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num == fieldResposta {
			return consumeString(&x.Resposta, typ, b)
		}
		return 0, false
	})
}

func (x *ProductRequest) appendWire(b []byte) []byte {
	return appendString(b, fieldProductID, x.GetId())
}

func (x *ProductRequest) unmarshalWire(b []byte) error {
	*x = ProductRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num == fieldProductID {
			return consumeString(&x.Id, typ, b)
		}
		return 0, false
	})
}

func appendProduct(b []byte, id, name, description string, price float64) []byte {
	b = appendString(b, fieldProductID, id)
	b = appendString(b, fieldProductName, name)
	b = appendString(b, fieldProductDescription, description)
	return appendDouble(b, fieldProductPrice, price)
}

func productFields(id, name, description *string, price *float64) fieldFunc {
	return func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		switch num {
		case fieldProductID:
			return consumeString(id, typ, b)
		case fieldProductName:
			return consumeString(name, typ, b)
		case fieldProductDescription:
			return consumeString(description, typ, b)
		case fieldProductPrice:
			return consumeDouble(price, typ, b)
		}
		return 0, false
	}
}

func (x *ProductResponse) appendWire(b []byte) []byte {
	if x == nil {
		return b
	}
	return appendProduct(b, x.Id, x.Name, x.Description, x.Price)
}

func (x *ProductResponse) unmarshalWire(b []byte) error {
	*x = ProductResponse{}
	return decodeFields(b, productFields(&x.Id, &x.Name, &x.Description, &x.Price))
}

func (x *Product) appendWire(b []byte) []byte {
	if x == nil {
		return b
	}
	return appendProduct(b, x.Id, x.Name, x.Description, x.Price)
}

func (x *Product) unmarshalWire(b []byte) error {
	*x = Product{}
	return decodeFields(b, productFields(&x.Id, &x.Name, &x.Description, &x.Price))
}

func (x *ProductListResponse) appendWire(b []byte) []byte {
	for _, p := range x.GetProducts() {
		b = protowire.AppendTag(b, fieldProducts, protowire.BytesType)
		b = protowire.AppendBytes(b, p.appendWire(nil))
	}
	return b
}

func (x *ProductListResponse) unmarshalWire(b []byte) error {
	*x = ProductListResponse{}
	var nested error
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num != fieldProducts || typ != protowire.BytesType {
			return 0, false
		}
		raw, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, true
		}
		p := new(Product)
		if nested = p.unmarshalWire(raw); nested != nil {
			return len(b), true
		}
		x.Products = append(x.Products, p)
		return n, true
	})
	if nested != nil {
		return nested
	}
	return err
}
