package main

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lobofinance/lobo/internal/importer"
)

func TestRootCmd(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "lobo", rootCmd.Use)
	assert.Contains(t, rootCmd.Short, "bookkeeping")

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "import")
}

func TestMigrateCmd_RejectsUnknownDirection(t *testing.T) {
	assert.Error(t, migrateCmd.Args(migrateCmd, []string{"sideways"}))
	assert.NoError(t, migrateCmd.Args(migrateCmd, []string{"up"}))
}

func TestParseScope(t *testing.T) {
	user, company := uuid.New(), uuid.New()

	scope, err := parseScope(user.String(), company.String())
	require.NoError(t, err)
	assert.Equal(t, user, scope.UserID)
	assert.Equal(t, company, scope.CompanyID)

	_, err = parseScope("me", company.String())
	assert.ErrorContains(t, err, "--user")

	_, err = parseScope(user.String(), "")
	assert.ErrorContains(t, err, "--company")
}

func TestReport(t *testing.T) {
	type testCase struct {
		name     string
		res      importer.Result
		wantErr  bool
		wantText string
	}

	testCases := []testCase{
		{name: "valid", res: importer.Result{Items: []importer.Draft{{Line: 2}}, Errors: []string{}}, wantText: "1 rows valid\n"},
		{name: "errors", res: importer.Result{Errors: []string{"Linha 2: Valor inválido"}}, wantErr: true, wantText: "Linha 2: Valor inválido\n"},
		{name: "empty", res: importer.Result{}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := report(&buf, tc.res)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tc.wantText, buf.String())
		})
	}
}
