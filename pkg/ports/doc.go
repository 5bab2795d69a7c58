/*
Package ports defines the driven ports (interfaces) of the newsmeme action client.

These interfaces decouple the dispatch protocol from the network and from the
page it mutates, so the same dispatcher runs against a real HTTP server, an
in-process page model, or test doubles.

# Key Interfaces

  - Transport: performs the POST round trip and decodes the envelope.
  - View: element lookup by synthetic id ("vote-42", "score-comment-9").
  - Notifier: the single message region ("notification sink").
  - Navigator: full-page navigation and reload.
  - VoteStore: persistence behind the reference action server.
*/
package ports
