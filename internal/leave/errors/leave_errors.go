package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"date_from must be before or equal date_to",
		http.StatusBadRequest,
	)
	ErrInvalidMinutes = apperror.New(
		apperror.CodeInvalidInput,
		"minutes must be greater than zero for hour-based policies",
		http.StatusBadRequest,
	)
	ErrHoursSingleDay = apperror.New(
		apperror.CodeInvalidInput,
		"hour-based requests must start and end on the same day",
		http.StatusBadRequest,
	)
	ErrPolicyNotApplicable = apperror.New(
		apperror.CodeInvalidInput,
		"no active leave policy covers this type and period",
		http.StatusBadRequest,
	)
	ErrNoShiftAssigned = apperror.New(
		apperror.CodeInvalidInput,
		"employee has no shift assigned",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidInput,
		"insufficient leave balance for this policy",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an active request already covers an overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request is no longer pending",
		http.StatusConflict,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the request owner may cancel it",
		http.StatusForbidden,
	)
	ErrApproverRoleRequired = apperror.New(
		apperror.CodeForbidden,
		"your role may not decide leave requests",
		http.StatusForbidden,
	)
	ErrEmployeeProfileRequired = apperror.New(
		apperror.CodeForbidden,
		"no employee profile linked to this account",
		http.StatusForbidden,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"the request was modified concurrently, retry",
		http.StatusConflict,
	)
)
