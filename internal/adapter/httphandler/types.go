package httphandler

type (
	// A CandidateBody carries product data scraped from markup.
	// Price is the display string, e.g. "$9.99".
	CandidateBody struct {
		Name   string `json:"name"`
		Desc   string `json:"desc"`
		Price  string `json:"price"`
		ImgSrc string `json:"imgSrc"`
	}

	CartItemView struct {
		Name     string  `json:"name"`
		Desc     string  `json:"desc"`
		Price    float64 `json:"price"`
		ImgSrc   string  `json:"imgSrc"`
		Qty      int     `json:"qty"`
		Subtotal float64 `json:"subtotal"`
	}

	CartView struct {
		Items          []CartItemView `json:"items"`
		Total          float64        `json:"total"`
		TotalFormatted string         `json:"total_formatted"`
		ItemCount      int            `json:"item_count"`
	}

	TotalsView struct {
		Total          float64 `json:"total"`
		TotalFormatted string  `json:"total_formatted"`
		ItemCount      int     `json:"item_count"`
	}

	ActivityView struct {
		ProductName string `json:"product_name"`
		Additions   int64  `json:"additions"`
	}
)
