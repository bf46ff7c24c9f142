// Package runpod provides an HTTP client for RunPod serverless endpoints.
//
// # Endpoints
//
// A Client is bound to one endpoint id and talks to two routes beneath
// {base_url}/{endpoint_id}:
//
//   - POST /run submits a job and returns its id and initial status
//   - GET /status/{id} returns the current JobStatus
//
// Every request carries the API key as a bearer token.
//
// # Errors
//
// Non-success responses are returned as *APIError with the status code and a
// short excerpt of the body. Transport failures are wrapped so callers can use
// errors.Is against the underlying error.
//
// # Usage
//
//	client, err := runpod.NewClient(runpod.Options{
//		EndpointID: "yo0g3z9woupofk",
//		APIKey:     os.Getenv("RUNPOD_API_KEY"),
//	})
//	if err != nil {
//		return err
//	}
//	job, err := client.Submit(ctx, payload)
//	...
//	job, err = client.Status(ctx, job.ID)
package runpod
