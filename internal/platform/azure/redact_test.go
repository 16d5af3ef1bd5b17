package azure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactArgs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "secret value",
			in:   []string{"keyvault", "secret", "set", "--vault-name", "kv", "--name", "vision-key", "--value", "abc"},
			want: []string{"keyvault", "secret", "set", "--vault-name", "kv", "--name", "vision-key", "--value", "***"},
		},
		{
			name: "connection string",
			in:   []string{"storage", "container", "create", "--name", "in", "--connection-string", "AccountKey=xyz"},
			want: []string{"storage", "container", "create", "--name", "in", "--connection-string", "***"},
		},
		{
			name: "registry password and env",
			in:   []string{"--registry-password", "pw", "--env-vars", "CREDENTIAL_METHOD=keyvault", "VISION_KEY=k", "KEY_VAULT_URL=https://kv"},
			want: []string{"--registry-password", "***", "--env-vars", "CREDENTIAL_METHOD=keyvault", "VISION_KEY=***", "KEY_VAULT_URL=https://kv"},
		},
		{
			name: "trailing flag",
			in:   []string{"--value"},
			want: []string{"--value"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactArgs(tt.in))
		})
	}
}

func TestRedactArgs_DoesNotModifyInput(t *testing.T) {
	t.Parallel()
	in := []string{"--value", "secret"}
	_ = RedactArgs(in)
	assert.Equal(t, "secret", in[1])
}

func TestCommandLine(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "az keyvault secret set --value ***", CommandLine("az", []string{"keyvault", "secret", "set", "--value", "v"}))
}
