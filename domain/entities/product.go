package entities

// Product is a generated catalog entry
type Product struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// ProductCard is what a catalog tile shows for one product
type ProductCard struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// CartLine is one row of the cart table
type CartLine struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Total    string `json:"total"`
}
