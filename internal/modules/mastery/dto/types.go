package dto

// StarsOutput carries the counts of the requested ids and the ceiling they are measured against.
type StarsOutput struct {
	Max   int
	Items map[string]StarOutput
}

type StarOutput struct {
	ID      string
	Stars   int
	Label   string
	Changed bool
}

type SummaryOutput struct {
	Total    int
	Mastered int
	Review   int
	Percent  int
}

type IDsInput struct {
	IDs []string
}

type ReplaceInput struct {
	Stars map[string]int
}
