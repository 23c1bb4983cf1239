package clients

import (
	"fmt"
	"sort"
	"strings"
)

// ClientPatch is a field-level update. Nil fields are left alone; the task
// list is never part of a patch.
type ClientPatch struct {
	StartDate   *string
	Code        *string
	ClientName  *string
	ContactName *string
	Email       *string
	Phone       *string
	ActionPlan  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ClientPatch) IsEmpty() bool {
	return p.StartDate == nil && p.Code == nil && p.ClientName == nil &&
		p.ContactName == nil && p.Email == nil && p.Phone == nil && p.ActionPlan == nil
}

func (p ClientPatch) apply(c *Client) {
	if p.StartDate != nil {
		c.StartDate = *p.StartDate
	}
	if p.Code != nil {
		c.Code = *p.Code
	}
	if p.ClientName != nil {
		c.ClientName = *p.ClientName
	}
	if p.ContactName != nil {
		c.ContactName = *p.ContactName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.ActionPlan != nil {
		c.ActionPlan = *p.ActionPlan
	}
}

// patchFields maps persisted key names to patch fields.
var patchFields = map[string]func(*ClientPatch, string){
	"data-inicio":  func(p *ClientPatch, v string) { p.StartDate = &v },
	"codigo":       func(p *ClientPatch, v string) { p.Code = &v },
	"nome-cliente": func(p *ClientPatch, v string) { p.ClientName = &v },
	"nome-contato": func(p *ClientPatch, v string) { p.ContactName = &v },
	"email":        func(p *ClientPatch, v string) { p.Email = &v },
	"telefone-01":  func(p *ClientPatch, v string) { p.Phone = &v },
	"plano-acao":   func(p *ClientPatch, v string) { p.ActionPlan = &v },
}

// PatchKeys returns the keys ParsePatch accepts, sorted.
func PatchKeys() []string {
	keys := make([]string, 0, len(patchFields))
	for k := range patchFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParsePatch builds a patch from persisted key names. Unknown keys,
// including "tarefas", are rejected.
func ParsePatch(fields map[string]string) (ClientPatch, error) {
	var p ClientPatch
	for key, value := range fields {
		set, ok := patchFields[key]
		if !ok {
			return ClientPatch{}, &ValidationError{
				Field: key,
				Err:   fmt.Errorf("unknown field, must be one of: %s", strings.Join(PatchKeys(), ", ")),
			}
		}
		set(&p, value)
	}
	if p.Code != nil {
		code := strings.TrimSpace(*p.Code)
		p.Code = &code
	}
	if p.Code != nil && *p.Code == "" {
		return ClientPatch{}, &ValidationError{Field: "codigo", Err: fmt.Errorf("code cannot be empty")}
	}
	if p.StartDate != nil && *p.StartDate != "" && !ValidDate(*p.StartDate) {
		return ClientPatch{}, &ValidationError{Field: "data-inicio", Err: fmt.Errorf("invalid date %q, want YYYY-MM-DD", *p.StartDate)}
	}
	return p, nil
}
