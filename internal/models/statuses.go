package models

type UserStatus string
type UserRole string
type PostStatus string
type LessorApplicationStatus string
type AppointmentStatus string
type PaymentStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleUser   UserRole = "user"
	UserRoleLessor UserRole = "lessor"
	UserRoleAdmin  UserRole = "admin"

	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusHidden    PostStatus = "hidden"

	LessorApplicationPending  LessorApplicationStatus = "pending"
	LessorApplicationApproved LessorApplicationStatus = "approved"
	LessorApplicationRejected LessorApplicationStatus = "rejected"

	AppointmentPending   AppointmentStatus = "pending"
	AppointmentAccepted  AppointmentStatus = "accepted"
	AppointmentDeclined  AppointmentStatus = "declined"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleLessor, UserRoleAdmin:
		return true
	}
	return false
}

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusBanned:
		return true
	}
	return false
}

func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusHidden:
		return true
	}
	return false
}

// CanTransitionTo - pending -> approved | rejected, остальные переходы запрещены
func (s LessorApplicationStatus) CanTransitionTo(next LessorApplicationStatus) bool {
	if s != LessorApplicationPending {
		return false
	}
	return next == LessorApplicationApproved || next == LessorApplicationRejected
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:  {AppointmentAccepted, AppointmentDeclined, AppointmentCancelled},
	AppointmentAccepted: {AppointmentCancelled, AppointmentCompleted},
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentPending, AppointmentAccepted, AppointmentDeclined, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}
