package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок бизнес-логики.
*/

// =========================================================================
// Фабрики для оборачивания ошибок репозитория
// =========================================================================

// ErrNotFound - ошибка "не найдено" (404), обычно из gorm.ErrRecordNotFound
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - ошибка "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Фабрики для новых ошибок
// =========================================================================

// ErrInvalidOperation - невалидная операция (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - переход статуса запрещен (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Auth & Users
// =========================================================================

var ErrCannotModifySelf = New(CodeForbidden, "user", "Operation on self is not allowed", http.StatusForbidden)

var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

var ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth", "Email already in use", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrUserSuspended = New(CodeForbidden, "auth", "Your account has been suspended", http.StatusForbidden)

var ErrUserBanned = New(CodeForbidden, "auth", "Your account has been banned", http.StatusForbidden)

// ErrWrongPassword - текущий пароль при смене указан неверно
var ErrWrongPassword = New(CodeInvalidCredentials, "user", "Current password is incorrect", http.StatusBadRequest)

// =========================================================================
// Uploads
// =========================================================================

var ErrFileTooLarge = New(CodeLimitExceeded, "validation", "File size exceeds the allowed limit", http.StatusRequestEntityTooLarge)

var ErrInvalidFileType = New(CodeValidationFailed, "validation", "The provided file type is not allowed", http.StatusUnsupportedMediaType)

// ErrTooManyImages - у объявления уже максимальное количество фото
var ErrTooManyImages = New(CodeLimitExceeded, "post", "Image limit for this post has been reached", http.StatusBadRequest)

// =========================================================================
// Posts
// =========================================================================

var ErrPostNotPublished = New(CodeInvalidStatus, "post", "Post is not published", http.StatusConflict)

var ErrNotPostOwner = New(CodeForbidden, "post", "You are not the owner of this post", http.StatusForbidden)

// =========================================================================
// Reviews
// =========================================================================

var ErrOwnPostReview = New(CodeForbidden, "review", "You cannot review your own post", http.StatusForbidden)

var ErrDuplicateReview = New(CodeAlreadyExists, "review", "You have already reviewed this post", http.StatusConflict)

// ErrReplyTargetInvalid - ответ адресован не тому уровню дерева или узлу вне видимого дерева
var ErrReplyTargetInvalid = New(CodeInvalidOperation, "review", "Reply target is not valid for this operation", http.StatusUnprocessableEntity)

// ErrReviewUnavailable - узел скрыт модерацией сам или через предка
var ErrReviewUnavailable = New(CodeInvalidOperation, "review", "Review is hidden and cannot be edited", http.StatusUnprocessableEntity)

var ErrNotReviewAuthor = New(CodeForbidden, "review", "You can only modify your own reviews", http.StatusForbidden)

// ErrRatingOnReply - оценка допустима только у отзыва верхнего уровня
var ErrRatingOnReply = New(CodeValidationFailed, "review", "Replies cannot carry a rating", http.StatusBadRequest)

// =========================================================================
// Lessor applications
// =========================================================================

var ErrApplicationPending = New(CodeConflict, "lessor_application", "You already have a pending application", http.StatusConflict)

var ErrApplicationNotAllowed = New(CodeInvalidOperation, "lessor_application", "Only regular users can apply to become a lessor", http.StatusForbidden)

var ErrApplicationAlreadyReviewed = New(CodeInvalidStatus, "lessor_application", "Application has already been reviewed", http.StatusConflict)

// =========================================================================
// Appointments
// =========================================================================

var ErrAppointmentInPast = New(CodeValidationFailed, "appointment", "Appointment time must be in the future", http.StatusBadRequest)

var ErrOwnPostAppointment = New(CodeInvalidOperation, "appointment", "You cannot book a viewing of your own post", http.StatusBadRequest)

var ErrInvalidAppointmentStatus = New(CodeInvalidStatus, "appointment", "Operation not allowed for the current appointment status", http.StatusConflict)

var ErrAppointmentAccessDenied = New(CodeForbidden, "appointment", "Access to appointment denied", http.StatusForbidden)

// =========================================================================
// Chatbot
// =========================================================================

var ErrAssistantUnavailable = New(CodeExternalServiceError, "chatbot", "The assistant is temporarily unavailable, please try again later", http.StatusServiceUnavailable)
