package models

import "github.com/iudanet/famsync/pkg/api"

// RecordFromAPI конвертирует профиль протокола в Record. nil остается nil.
func RecordFromAPI(p *api.Profile) *Record {
	if p == nil {
		return nil
	}
	r := &Record{
		ID:        p.ID,
		Fields:    p.Fields,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
	return r.Clone()
}

// ToAPI конвертирует Record в профиль протокола
func (r *Record) ToAPI() *api.Profile {
	if r == nil {
		return nil
	}
	c := r.Clone()
	return &api.Profile{
		ID:        c.ID,
		Fields:    c.Fields,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ConflictsToAPI конвертирует конфликты в формат протокола
func ConflictsToAPI(conflicts []Conflict) []api.Conflict {
	out := make([]api.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, api.Conflict{
			Field:      c.Field,
			Local:      c.Local,
			Remote:     c.Remote,
			Resolution: c.Resolution,
		})
	}
	return out
}

// ChangesToAPI конвертирует изменения в формат протокола
func ChangesToAPI(changes []Change) []api.Change {
	out := make([]api.Change, 0, len(changes))
	for _, c := range changes {
		out = append(out, api.Change{
			Field:  c.Field,
			From:   c.From,
			To:     c.To,
			Source: c.Source,
		})
	}
	return out
}
