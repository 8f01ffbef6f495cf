package ctdf

type DataSource struct {
	OriginalFormat string `json:"originalFormat" groups:"internal"` // eg. tfl-json
	Provider       string `json:"provider" groups:"internal"`
	Dataset        string `json:"dataset" groups:"internal"`
	Identifier     string `json:"identifier" groups:"internal"`
}
