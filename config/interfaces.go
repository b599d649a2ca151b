package config

// Validator is implemented by configuration structures able to validate their entries.
type Validator interface {
	// Validates configuration entries.
	Validate() error
}

// IServiceConfiguration defines a service configuration which can be loaded from the
// environment.
type IServiceConfiguration interface {
	Validator
}
