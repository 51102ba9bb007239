package model

type Repository struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Owner         Owner  `json:"owner"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
}

type Owner struct {
	Login string `json:"login"`
}
