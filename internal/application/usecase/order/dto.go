package order

// Input

type IngestInput struct {
	RequestID string `json:"-"`
	Transport string `json:"-"`
	Body      []byte `json:"-"`
}

// Output

type IngestOutput struct {
	Accepted   bool   `json:"accepted"`
	Message    string `json:"message"`
	CustomerID string `json:"customerId,omitempty"`
	Items      int    `json:"items,omitempty"`
	Duplicate  bool   `json:"duplicate,omitempty"`
}
