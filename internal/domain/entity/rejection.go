package entity

// RejectionRecord registro de un rechazo, documento "rejections".
// Lo consume Analytics para agrupar por motivo y por planta.
type RejectionRecord struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	PlantNumber  int    `json:"plantNumber,omitempty"`
	Reason       string `json:"reason"`
	RejectedBy   string `json:"rejectedBy"`
	Date         string `json:"date"`
	MaterialData Item   `json:"materialData"`
}
