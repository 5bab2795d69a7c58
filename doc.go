/*
Package newsmeme is the client side of the newsmeme action protocol.

Page actions (voting, deleting) are posted to the server, which answers with
a JSON envelope. Each envelope resolves to exactly one effect on the page:

  - success=false shows the error text in the message region
  - redirect_url navigates away (it wins over reload)
  - reload reloads the current page
  - anything else invokes the action's success callback

Round trips run concurrently; effects are applied one at a time in the order
replies arrive.

# Usage

	client, err := newsmeme.New("https://news.example.com", newsmeme.WithUser("alice"))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	out, err := client.Actions.VotePost("/post/42/upvote/").Wait(ctx)

The server half lives in pkg/adapters/http and stores votes through a
ports.VoteStore (memory, Redis or SQLite).
*/
package newsmeme
