// Package httpclient is the outbound HTTP client used by the transcription
// backends.
//
// Every Do call sends exactly one request: there is no retry, circuit
// breaker or rate limiter. Errors are classified as timeout, connection,
// status or decode failures and map onto the service taxonomy with
// ToAppError.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:   "https://api.mistral.ai",
//	    Timeout:   120 * time.Second,
//	    UserAgent: version.UserAgent(),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/v1/audio/transcriptions",
//	    Auth:   httpclient.Bearer(key),
//	    Body:   &httpclient.MultipartBody{...},
//	})
package httpclient
