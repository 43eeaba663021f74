package entity

import "time"

// QRVersion versión del formato del payload QR.
const QRVersion = "1.0"

// QRMetadata metadatos del payload.
type QRMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	Version   string    `json:"version"`
}

// QRPayload contenido codificado en el QR de un material.
type QRPayload struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Measure      string     `json:"measure,omitempty"`
	Weight       Weight     `json:"weight"`
	Lot          string     `json:"lot,omitempty"`
	Code         string     `json:"code,omitempty"`
	EntryDate    string     `json:"entryDate,omitempty"`
	Location     string     `json:"location,omitempty"`
	LastMovement *Movement  `json:"lastMovement,omitempty"`
	Metadata     QRMetadata `json:"metadata"`
}

// QRSnapshot payload guardado en el documento "qr_codes".
type QRSnapshot struct {
	QRPayload
	GeneratedAt time.Time `json:"generatedAt"`
	QRID        string    `json:"qrId"`
}
