package domain

// Variant is the shape an envelope takes. Exactly one applies to any envelope.
type Variant string

const (
	VariantError    Variant = "error"
	VariantRedirect Variant = "redirect"
	VariantReload   Variant = "reload"
	VariantPayload  Variant = "payload"
)

// Classify resolves the envelope into its variant.
// Order matters: a redirect wins over a reload if a server sets both.
func Classify(resp ActionResponse) Variant {
	switch {
	case !resp.Success:
		return VariantError
	case resp.RedirectURL != "":
		return VariantRedirect
	case resp.Reload:
		return VariantReload
	default:
		return VariantPayload
	}
}

// EffectKind identifies the observable consequence of an action.
type EffectKind string

const (
	EffectNone      EffectKind = "none"
	EffectNavigate  EffectKind = "navigate"
	EffectReload    EffectKind = "reload"
	EffectCallback  EffectKind = "callback"
	EffectShowError EffectKind = "show_error"
)

// Effect is the single UI consequence of one envelope. It is applied once.
type Effect struct {
	Kind EffectKind

	URL      string         // EffectNavigate
	Message  string         // EffectShowError
	Response ActionResponse // EffectCallback
}

// NoEffect is the terminal state of a success with nothing to do.
func NoEffect() Effect { return Effect{Kind: EffectNone} }

// Navigate sends the page to url.
func Navigate(url string) Effect { return Effect{Kind: EffectNavigate, URL: url} }

// Reload reloads the current page.
func Reload() Effect { return Effect{Kind: EffectReload} }

// InvokeCallback hands the envelope to the action's success callback.
func InvokeCallback(resp ActionResponse) Effect {
	return Effect{Kind: EffectCallback, Response: resp}
}

// ShowError renders message in the message region.
func ShowError(message string) Effect { return Effect{Kind: EffectShowError, Message: message} }

// Resolve maps an envelope to its effect. hasCallback reports whether the
// action registered a success callback; without one a payload is a no-op.
func Resolve(resp ActionResponse, hasCallback bool) Effect {
	switch Classify(resp) {
	case VariantError:
		return ShowError(resp.Error)
	case VariantRedirect:
		return Navigate(resp.RedirectURL)
	case VariantReload:
		return Reload()
	}
	if hasCallback {
		return InvokeCallback(resp)
	}
	return NoEffect()
}
