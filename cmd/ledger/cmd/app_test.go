package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_ClosesLedger(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "transactions.db"))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "Success", args: []string{"balance"}},
		{name: "CommandFails", args: []string{"deposit", "--location", "InvalidPlace", "--amount", "5"}, wantErr: "invalid location"},
		{name: "BadFlagValue", args: []string{"cheque", "--company", "Acme Corp", "--amount", "five"}, wantErr: "invalid --amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &app{}
			root := newRootCmd(a)

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs(tt.args)

			err := root.Execute()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			require.NotNil(t, a.db)
			assert.True(t, a.closed)
			assert.ErrorContains(t, a.db.PingContext(context.Background()), "database is closed")
		})
	}
}
