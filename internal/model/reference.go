package model

// Service is a hospital service card.
type Service struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Department is a clinical department listed on the page.
type Department struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Doctor is a featured doctor profile.
type Doctor struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Photo          string `json:"photo"`
}
