package response

// Response is the envelope every endpoint returns. Data and Error are
// mutually exclusive; the HTTP status code is mirrored in the body so
// clients behind buffering proxies can still branch on it.
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Page wraps one window of a listing together with the total row count
// and the pagination parameters that produced it.
type Page struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Success wraps data in a success envelope
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Paged wraps one page of a listing in a success envelope
func Paged(statusCode int, items interface{}, total int64, page, limit int) Response {
	return Success(statusCode, Page{Items: items, Total: total, Page: page, Limit: limit})
}

// Error wraps an error message in an error envelope
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
