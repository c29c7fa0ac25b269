package schema

import "github.com/hamba/avro/v2"

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "cart",
	"name": "cart_event",
	"fields" : [
		{"name": "shop_id", "type": "string"},
		{"name": "op", "type": "string"},
		{"name": "product_name", "type": "string"},
		{"name": "total", "type": "double"},
		{"name": "item_count", "type": "int"}
	]
}`

type CartEventV1 struct {
	ShopID      string  `avro:"shop_id"`
	Op          string  `avro:"op"`
	ProductName string  `avro:"product_name"`
	Total       float64 `avro:"total"`
	ItemCount   int     `avro:"item_count"`
}

// CartEventV1Avro parses the cart event schema.
// Panics on an invalid schema text.
func CartEventV1Avro() avro.Schema {
	return avro.MustParse(CartEventSchemaTextV1)
}
