/*
Package dispatcher implements the newsmeme action protocol: submit a form-less
action, decode the reply envelope, and apply exactly one effect to the page.

# Dispatch

Replies are classified in this order, first match wins:

  - success is false: the error text is shown in the message region.
  - redirect_url is set: the page navigates there.
  - reload is true: the page reloads.
  - a success callback was given: it receives the envelope.
  - otherwise nothing happens.

Each Submit sends its request on its own goroutine and returns a Pending at
once. Replies are handled one at a time on the dispatcher's loop goroutine,
in the order they arrive. Requests cannot be cancelled.

Transport failures (network errors, non-2xx replies, bodies that are not a
JSON object) are silent by default: no callback runs and no message is shown.
WithTransportFailureMessage makes them visible.

# Usage

	d := dispatcher.New(transport, page, dispatcher.WithLogger(logger))
	defer d.Close()

	actions := dispatcher.NewActions(d, page)
	outcome, err := actions.VotePost("/post/42/upvote/").Wait(ctx)
*/
package dispatcher
