package models

// Project is a named write-scope within a tenant, resolved from the batch's
// write key. Projects are created and managed elsewhere; the pipeline only
// reads them.
type Project struct {
	ProjectID      string
	TenantID       string
	Name           string
	WriteKey       string
	AllowedOrigins []string
}

// OriginAllowed reports whether the given request origin may submit batches
// for this project. An empty allow-list permits every origin.
func (p *Project) OriginAllowed(origin string) bool {
	if len(p.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range p.AllowedOrigins {
		if allowed == origin || allowed == "*" {
			return true
		}
	}
	return false
}
