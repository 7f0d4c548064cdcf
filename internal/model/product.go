package model

// Product is a catalog entry read from the products spreadsheet.
// JSON keys follow the storefront frontend contract.
type Product struct {
	ID              string   `json:"ID"`
	Name            string   `json:"Nome"`
	Description     string   `json:"Descrição"`
	FullDescription string   `json:"DescriçãoCompleta"`
	Price           string   `json:"Preço"`
	Category        string   `json:"Categoria"`
	Images          []string `json:"Imagens"`
	ImageURL        string   `json:"URL_Imagem"`
}
