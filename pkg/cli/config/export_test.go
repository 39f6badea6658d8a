package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location, model string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
		model:     model,
	}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(jwksURL, issuer, audience, noAuthUID string) *Auth {
	return &Auth{
		jwksURL:   jwksURL,
		issuer:    issuer,
		audience:  audience,
		noAuthUID: noAuthUID,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channel string, threshold int) *Slack {
	return &Slack{
		botToken:  botToken,
		channel:   channel,
		threshold: threshold,
	}
}

// NewStageForTest creates a Stage config for testing purposes
func NewStageForTest(path string) *Stage {
	return &Stage{path: path}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(bucket, prefix string) *Storage {
	return &Storage{bucket: bucket, prefix: prefix}
}
