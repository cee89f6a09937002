// Package tesis provides thesis record management: document ingestion
// (upload and OCR digitization), retrieval, and lifecycle operations.
// Thesis metadata and the PDF binary persist together in the relational
// store; author associations are delegated to the autores collaborator.
package tesis

// Tesis represents one deposited work, projected to metadata only.
// The PDF binary is retrieved separately through Download.
type Tesis struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	IDEncargado int    `json:"id_encargado"`
	IDTutor     int    `json:"id_tutor"`
	IDSede      int    `json:"id_sede"`
	Fecha       string `json:"fecha"`
	Estado      string `json:"estado"`
}

// DepositCommand contains the metadata accompanying an upload or
// digitization request. The thesis id is client-chosen, not generated.
type DepositCommand struct {
	ID           int
	Nombre       string
	IDEstudiante int
	IDTutor      int
	IDEncargado  int
	Fecha        string
	IDSede       int
	Estado       string
}

// UpdateCommand contains the fields that can be modified on an existing
// thesis. Nil fields are left untouched; Archivo replaces the stored
// document only when non-empty.
type UpdateCommand struct {
	Nombre  *string
	Fecha   *string
	Estado  *string
	Archivo []byte
}

// Receipt is the response body for a successful upload or digitization.
type Receipt struct {
	Message string `json:"message"`
	IDTesis int    `json:"id_tesis"`
}
