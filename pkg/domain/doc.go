/*
Package domain contains the value types of the newsmeme action protocol.

Every entity here is request-scoped: it is created when the user triggers an
action and discarded once the resulting effect has been applied. The package
has no I/O and no persistence.

# Key Entities

  - ActionRequest: what to POST (URL, form params) for one user action.
  - ActionResponse: the JSON envelope the server replies with.
  - Variant: the shape an envelope takes once classified (error, redirect, reload, payload).
  - Effect: the single UI consequence resolved from an envelope.
  - Post, Comment: the votable entities behind the reference action server.
*/
package domain
