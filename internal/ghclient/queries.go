package ghclient

import (
	"embed"
	"fmt"
)

//go:embed queries/*.graphql
var queryFiles embed.FS

// contributionsQuery is loaded at init time
var contributionsQuery string

func init() {
	data, err := queryFiles.ReadFile("queries/contributions.graphql")
	if err != nil {
		panic(fmt.Sprintf("failed to load contributions.graphql: %v", err))
	}
	contributionsQuery = string(data)
}

// ContributionsQuery returns the contribution collection query.
func ContributionsQuery() string {
	return contributionsQuery
}
