package auth_test

import (
	"testing"

	"github.com/maynagashev/portfolio-server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialStore(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		password    string
		expectedErr error
	}{
		{
			name:        "Успешное создание",
			username:    "admin",
			password:    "admin12345",
			expectedErr: nil,
		},
		{
			name:        "Пустое имя пользователя",
			username:    "",
			password:    "admin12345",
			expectedErr: auth.ErrEmptyCredentials,
		},
		{
			name:        "Пустой пароль",
			username:    "admin",
			password:    "",
			expectedErr: auth.ErrEmptyCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := auth.NewCredentialStore(tt.username, tt.password)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, store)
			} else {
				require.NoError(t, err)
				require.NotNil(t, store)
			}
		})
	}
}

func TestCredentialStore_Verify(t *testing.T) {
	store, err := auth.NewCredentialStore("admin", "admin12345")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		expected bool
	}{
		{
			name:     "Верные учетные данные",
			username: "admin",
			password: "admin12345",
			expected: true,
		},
		{
			name:     "Неверный пароль",
			username: "admin",
			password: "wrongpassword",
			expected: false,
		},
		{
			name:     "Неверное имя пользователя",
			username: "someone",
			password: "admin12345",
			expected: false,
		},
		{
			name:     "Пустые учетные данные",
			username: "",
			password: "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, store.Verify(tt.username, tt.password))
		})
	}
}

func TestCredentialStore_Update(t *testing.T) {
	t.Run("Успешная замена", func(t *testing.T) {
		store, err := auth.NewCredentialStore("admin", "admin12345")
		require.NoError(t, err)

		err = store.Update("newadmin", "newpassword")
		require.NoError(t, err)

		// Старые учетные данные больше не действуют, новые - действуют
		assert.False(t, store.Verify("admin", "admin12345"))
		assert.True(t, store.Verify("newadmin", "newpassword"))
	})

	t.Run("Пустые поля отклоняются", func(t *testing.T) {
		store, err := auth.NewCredentialStore("admin", "admin12345")
		require.NoError(t, err)

		require.ErrorIs(t, store.Update("", "newpassword"), auth.ErrEmptyCredentials)
		require.ErrorIs(t, store.Update("newadmin", ""), auth.ErrEmptyCredentials)

		// Учетные данные не изменились
		assert.True(t, store.Verify("admin", "admin12345"))
	})
}
