package models

// LoginRequest представляет тело запроса на вход администратора.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse представляет тело ответа на запрос входа.
// Токен дублируется в HttpOnly cookie, поле в JSON - для API-клиентов.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

// ChangeCredentialsRequest представляет тело запроса на смену учетных данных.
type ChangeCredentialsRequest struct {
	NewUsername string `json:"newUsername"`
	NewPassword string `json:"newPassword"`
}

// ContactRequest представляет сообщение из контактной формы.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
