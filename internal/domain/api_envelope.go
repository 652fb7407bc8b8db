package domain

// Общий конверт ответа: {success, message, data} / {success:false, message, errors}
type APIEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Утилиты для сборки конвертов
func OkData(data any) APIEnvelope { return APIEnvelope{Success: true, Data: data} }
func OkMessage(msg string, data any) APIEnvelope {
	return APIEnvelope{Success: true, Message: msg, Data: data}
}
func Fail(msg string) APIEnvelope { return APIEnvelope{Message: msg} }
func FailFields(msg string, fields map[string][]string) APIEnvelope {
	return APIEnvelope{Message: msg, Errors: fields}
}
