package dto

type ExportInput struct {
	Path string
}

type ExportOutput struct {
	Path       string
	Stars      int
	Units      int
	ExportDate string
}

type ImportInput struct {
	Path      string
	Confirmed bool
}

type ImportOutput struct {
	Path       string
	ExportDate string
	Version    string
	Stars      int
	Units      int
	HasStars   bool
	HasStats   bool
	Applied    bool
}
