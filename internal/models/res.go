package models

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Total      *int64      `json:"total,omitempty"`
	Limit      int         `json:"limit,omitempty"`
	Offset     *int        `json:"offset,omitempty"`
}

func SuccessResponse(status int, data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success:    true,
		StatusCode: status,
		Data:       data,
		Message:    message,
	}
}

func ErrorResponse(status int, message string) ApiResponse {
	return ApiResponse{
		Success:    false,
		StatusCode: status,
		Message:    message,
	}
}

func PaginatedResponse(status int, data interface{}, total int64, limit, offset int) ApiResponse {
	return ApiResponse{
		Success:    true,
		StatusCode: status,
		Data:       data,
		Total:      &total,
		Limit:      limit,
		Offset:     &offset,
	}
}
