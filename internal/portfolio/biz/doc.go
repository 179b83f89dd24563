// Package biz implements the business logic of the portfolio backend:
// retrieval-augmented question answering, the gated chat assistant,
// OTP verification and resume requests.
package biz
