package dto

type PlayInput struct {
	Key     string
	Text    string
	Control string
}

type PlayOutput struct {
	Control string
	Outcome string
}

type StatusOutput struct {
	State   string
	Control string
}

type EventOutput struct {
	Control string
	Kind    string
	Err     error
}

type EngineOutput struct {
	Name         string
	Kind         string
	Version      string
	Available    bool
	Capabilities []string
}
