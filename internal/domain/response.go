package domain

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type DirectoryEntry struct {
	Name    string `json:"name"`
	Cluster string `json:"cluster"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
