package errors

// Common errors shared by all endpoints.
var (
	ErrInvalidParam = Register(New(MakeCode(ServiceCommon, CategoryRequest, 1), 400, "Invalid request parameters"))
	ErrUnauthorized = Register(New(MakeCode(ServiceCommon, CategoryAuth, 1), 401, "Unauthorized"))
	ErrNotFound     = Register(New(MakeCode(ServiceCommon, CategoryResource, 1), 404, "Resource not found"))
	ErrInternal     = Register(New(MakeCode(ServiceCommon, CategoryInternal, 1), 500, "Internal server error"))
	ErrDatabase     = Register(New(MakeCode(ServiceCommon, CategoryDatabase, 1), 500, "Database error"))
	ErrCache        = Register(New(MakeCode(ServiceCommon, CategoryCache, 1), 500, "Cache error"))
	ErrTimeout      = Register(New(MakeCode(ServiceCommon, CategoryTimeout, 1), 504, "Request timeout"))
	ErrConfig       = Register(New(MakeCode(ServiceCommon, CategoryConfig, 1), 500, "Configuration error"))
)

// Portfolio service errors.
var (
	// Ask/chat pipeline.
	ErrEmptyQuestion   = Register(New(MakeCode(ServicePortfolio, CategoryRequest, 1), 400, "Question is required"))
	ErrNoMessage       = Register(New(MakeCode(ServicePortfolio, CategoryRequest, 2), 400, "No message provided"))
	ErrPipelineFailed  = Register(New(MakeCode(ServicePortfolio, CategoryInternal, 1), 500, "Failed to process your question"))
	ErrRetrievalFailed = Register(New(MakeCode(ServicePortfolio, CategoryInternal, 2), 500, "Context retrieval failed"))

	// OTP gate.
	ErrInvalidOTP     = Register(New(MakeCode(ServicePortfolio, CategoryAuth, 1), 401, "Invalid or expired code"))
	ErrOTPStoreFailed = Register(New(MakeCode(ServicePortfolio, CategoryDatabase, 1), 500, "Could not store verification code"))

	// Resume requests.
	ErrResumeStoreFailed = Register(New(MakeCode(ServicePortfolio, CategoryDatabase, 2), 500, "Could not record request"))
)

// Third-party provider errors.
var (
	ErrMailDelivery     = Register(New(MakeCode(ServiceThirdPartyEmail, CategoryNetwork, 1), 400, "Failed to send email"))
	ErrEmbeddingFailed  = Register(New(MakeCode(ServiceThirdPartyLLM, CategoryNetwork, 1), 500, "Invalid embedding response"))
	ErrGenerationFailed = Register(New(MakeCode(ServiceThirdPartyLLM, CategoryNetwork, 2), 500, "Text generation failed"))
)
