package otp

import "errors"

var (
	ErrInvalidMobile = errors.New("Invalid mobile number")
	ErrRateLimited   = errors.New("Too many OTP requests, please try again later")
	ErrDispatch      = errors.New("Could not send OTP, please try again")
	// ErrInvalid covers not-found, wrong code and already-consumed alike so
	// callers cannot probe which mobiles have live codes.
	ErrInvalid = errors.New("Invalid OTP")
	ErrExpired = errors.New("OTP expired")
)
