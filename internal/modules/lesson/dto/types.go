package dto

type UnitRefOutput struct {
	ID             string
	Title          string
	Description    string
	DataURL        string
	WordsCount     int
	SentencesCount int
	Difficulty     string
	Created        string
	Uploaded       bool
}

type IndexOutput struct {
	Units []UnitRefOutput
}

type ItemOutput struct {
	ID          string
	Kind        string
	Position    int
	English     string
	Translation string
	Audio       string
	Hint        string
}

type UnitOutput struct {
	ID          string
	Title       string
	Description string
	Words       []ItemOutput
	Sentences   []ItemOutput
}

type LoadUnitInput struct {
	UnitID string
}

type UploadInput struct {
	Payload []byte
}

type ResolveInput struct {
	Requested string
}
