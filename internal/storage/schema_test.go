package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateValidBlob(t *testing.T) {
	data, err := Encode(sampleClients())
	require.NoError(t, err)

	res := Validate(data)
	require.True(t, res.Valid, "errors: %v", res.Errors)
	require.Empty(t, res.Errors)
	require.Equal(t, 2, res.Clients)
	require.Equal(t, 2, res.Tasks)
}

func TestValidateReportsPaths(t *testing.T) {
	blob := `[{"codigo":"C1","tarefas":[{"limite":"2024-01-01","titulo":"ok","status":"Pendente"},{"limite":"01/02/2024","titulo":"","status":"Pendente"}]}]`
	res := Validate([]byte(blob))
	require.False(t, res.Valid)

	var msgs []string
	for _, e := range res.Errors {
		msgs = append(msgs, e.Error())
	}
	joined := strings.Join(msgs, "\n")
	require.Contains(t, joined, "[0].tarefas[1].limite")
	require.Contains(t, joined, "[0].tarefas[1].titulo")
}

func TestValidateCalendarDate(t *testing.T) {
	blob := `[{"codigo":"C1","tarefas":[{"limite":"2024-02-30","titulo":"x","status":"Pendente"}]}]`
	res := Validate([]byte(blob))
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0].Error(), "not a calendar date")
}

func TestValidateDuplicateCodeWarns(t *testing.T) {
	blob := `[{"codigo":"C1","tarefas":[]},{"codigo":"C1","tarefas":[]}]`
	res := Validate([]byte(blob))
	require.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
}

func TestValidateBadJSON(t *testing.T) {
	res := Validate([]byte("{"))
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)

	res = Validate(nil)
	require.True(t, res.Valid)
	require.NotEmpty(t, res.Warnings)
}
