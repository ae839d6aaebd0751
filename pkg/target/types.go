package target

// Object types rooted under authorization/ rather than addressed by id.
var authorizationTypes = map[string]bool{
	"tokens":    true,
	"passwords": true,
}

func isAuthorizationType(token string) bool {
	return authorizationTypes[token]
}

// Workspace object types that carry a permission model, mapped from the
// singular caller-facing type to the plural path token. Types absent from
// this table (LIBRARY, FILE, EXPORT_FORMAT) reject permission operations.
var workspaceObjectTypes = map[string]string{
	"notebook":  "notebooks",
	"directory": "directories",
	"repo":      "repos",
}
