package handler

import "github.com/labstack/echo/v4"

// envelope is the JSON shape every endpoint responds with. Data carries
// the payload on success; Error carries a short machine-friendly reason on
// failure; Message is optional human-readable detail. Internal error
// detail (driver messages, stack traces) never goes into either field.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// respondData writes a success envelope with a payload.
func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

// respondMessage writes a success envelope carrying only a message.
func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: true, Message: msg})
}

// respondError writes a failure envelope.
func respondError(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: false, Error: msg})
}
