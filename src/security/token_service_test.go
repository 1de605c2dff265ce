package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementTokenRoundtrip(t *testing.T) {
	svc := NewStatementTokenService("test-secret", time.Hour)

	token, err := svc.IssueToken("stmt-abc")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	statementID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "stmt-abc", statementID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewStatementTokenService("secret-a", time.Hour)
	verifier := NewStatementTokenService("secret-b", time.Hour)

	token, err := issuer.IssueToken("stmt-abc")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewStatementTokenService("test-secret", -time.Minute)

	token, err := svc.IssueToken("stmt-abc")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewStatementTokenService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenEmptySubject(t *testing.T) {
	svc := NewStatementTokenService("test-secret", time.Hour)

	token, err := svc.IssueToken("")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
