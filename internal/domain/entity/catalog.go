package entity

// StockLocation ubicación física de stock (bodega o tienda).
type StockLocation struct {
	ID   string
	Name string
}

// ProductRef resolución de un producto/variante a su ítem de inventario.
type ProductRef struct {
	ProductID       string
	InventoryItemID string
	Title           string
	SKU             string
}

// User datos mínimos de identidad para mostrar actores.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// ActorRef identifica a quien ejecutó una acción. DisplayName se resuelve al presentar,
// nunca se persiste en el estado de dominio.
type ActorRef struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name,omitempty"`
}
