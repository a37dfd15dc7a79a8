package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrTrailNotFound        = errors.New("trail not found")
	ErrModuleNotFound       = errors.New("module not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrSubmissionNotPending = errors.New("submission already reviewed")
	ErrPendingSubmission    = errors.New("a pending submission already exists for this module")
	ErrNotEnrolled          = errors.New("user is not enrolled in this trail")
	ErrAlreadyEnrolled      = errors.New("user is already enrolled in this trail")
	ErrNotStaffSkip         = errors.New("module completion was not a staff skip")
	ErrProgressNotFound     = errors.New("module progress not found")
	ErrConcurrencyConflict  = errors.New("concurrent update conflict, please retry")
	ErrInvalidScore         = errors.New("score must be between 0 and 10")
	ErrInvalidOutcome       = errors.New("invalid review outcome")
)
