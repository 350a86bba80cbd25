package entity

// Entity labels produced by the NER capability (OntoNotes scheme).
const (
	LabelGPE = "GPE"
	LabelFAC = "FAC"
	LabelORG = "ORG"
	LabelLOC = "LOC"
)

type NamedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}
