// Package autores manages the association records linking authoring students
// to thesis records. The ingestion pipeline consumes it through a direct
// interface contract after persisting a thesis.
package autores

// Asociacion links a student to a thesis they authored.
type Asociacion struct {
	ID           int `json:"id"`
	IDEstudiante int `json:"id_estudiante"`
	IDTesis      int `json:"id_tesis"`
}

// CreateCommand contains the data required to create an association.
type CreateCommand struct {
	IDEstudiante int `json:"id_estudiante"`
	IDTesis      int `json:"id_tesis"`
}
