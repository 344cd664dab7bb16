package core

// Hooks is the extension surface of the verification pipeline. Each stage
// keeps an ordered list of statically typed callbacks that are invoked
// synchronously in registration order. Observers take value arguments;
// filters take pointers or return replacements.
//
// A nil *Hooks is valid and fires nothing.
type Hooks struct {
	preVerification  []func(email string)
	postVerification []func(email string, env *VerificationEnvelope)
	interpretation   []func(env VerificationEnvelope, in *Interpretation)
	policy           []func(p *Policy)
	message          []func(reason, message string) string
	ignoredReasons   []func(reasons []string) []string
	cacheKey         []func(email, key string) string
	cacheItem        []func(key string, entry *CacheEntry)
	beforePrune      []func(entries map[string]CacheEntry)
	afterPrune       []func(entries map[string]CacheEntry)
}

// NewHooks creates an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnPreVerification registers an observer fired before a remote call.
func (h *Hooks) OnPreVerification(fn func(email string)) {
	h.preVerification = append(h.preVerification, fn)
}

// OnPostVerification registers a filter fired after a remote call. The
// envelope may be modified in place.
func (h *Hooks) OnPostVerification(fn func(email string, env *VerificationEnvelope)) {
	h.postVerification = append(h.postVerification, fn)
}

// OnInterpretation registers a filter over the final interpretation.
func (h *Hooks) OnInterpretation(fn func(env VerificationEnvelope, in *Interpretation)) {
	h.interpretation = append(h.interpretation, fn)
}

// OnPolicy registers a filter over the resolved policy.
func (h *Hooks) OnPolicy(fn func(p *Policy)) {
	h.policy = append(h.policy, fn)
}

// OnMessage registers a filter over resolved error messages, keyed by reason.
func (h *Hooks) OnMessage(fn func(reason, message string) string) {
	h.message = append(h.message, fn)
}

// OnIgnoredReasons registers a filter over the fail-open reason set.
func (h *Hooks) OnIgnoredReasons(fn func(reasons []string) []string) {
	h.ignoredReasons = append(h.ignoredReasons, fn)
}

// OnCacheKey registers a filter over derived cache keys.
func (h *Hooks) OnCacheKey(fn func(email, key string) string) {
	h.cacheKey = append(h.cacheKey, fn)
}

// OnCacheItem registers a filter over entries about to be cached.
func (h *Hooks) OnCacheItem(fn func(key string, entry *CacheEntry)) {
	h.cacheItem = append(h.cacheItem, fn)
}

// OnBeforePrune registers an observer fired before a prune sweep.
func (h *Hooks) OnBeforePrune(fn func(entries map[string]CacheEntry)) {
	h.beforePrune = append(h.beforePrune, fn)
}

// OnAfterPrune registers an observer fired after a prune sweep.
func (h *Hooks) OnAfterPrune(fn func(entries map[string]CacheEntry)) {
	h.afterPrune = append(h.afterPrune, fn)
}

// FirePreVerification invokes the pre-call observers.
func (h *Hooks) FirePreVerification(email string) {
	if h == nil {
		return
	}
	for _, fn := range h.preVerification {
		fn(email)
	}
}

// FirePostVerification invokes the post-call filters.
func (h *Hooks) FirePostVerification(email string, env *VerificationEnvelope) {
	if h == nil {
		return
	}
	for _, fn := range h.postVerification {
		fn(email, env)
	}
}

// FireInterpretation invokes the interpretation filters.
func (h *Hooks) FireInterpretation(env VerificationEnvelope, in *Interpretation) {
	if h == nil {
		return
	}
	for _, fn := range h.interpretation {
		fn(env, in)
	}
}

// FirePolicy invokes the policy filters.
func (h *Hooks) FirePolicy(p *Policy) {
	if h == nil {
		return
	}
	for _, fn := range h.policy {
		fn(p)
	}
}

// FireMessage runs a message through the message filters.
func (h *Hooks) FireMessage(reason, message string) string {
	if h == nil {
		return message
	}
	for _, fn := range h.message {
		message = fn(reason, message)
	}
	return message
}

// FireIgnoredReasons runs the fail-open reason set through its filters.
func (h *Hooks) FireIgnoredReasons(reasons []string) []string {
	if h == nil {
		return reasons
	}
	for _, fn := range h.ignoredReasons {
		reasons = fn(reasons)
	}
	return reasons
}

// FireCacheKey runs a derived cache key through its filters.
func (h *Hooks) FireCacheKey(email, key string) string {
	if h == nil {
		return key
	}
	for _, fn := range h.cacheKey {
		key = fn(email, key)
	}
	return key
}

// FireCacheItem invokes the cache-item filters.
func (h *Hooks) FireCacheItem(key string, entry *CacheEntry) {
	if h == nil {
		return
	}
	for _, fn := range h.cacheItem {
		fn(key, entry)
	}
}

// FireBeforePrune invokes the before-prune observers.
func (h *Hooks) FireBeforePrune(entries map[string]CacheEntry) {
	if h == nil {
		return
	}
	for _, fn := range h.beforePrune {
		fn(entries)
	}
}

// FireAfterPrune invokes the after-prune observers.
func (h *Hooks) FireAfterPrune(entries map[string]CacheEntry) {
	if h == nil {
		return
	}
	for _, fn := range h.afterPrune {
		fn(entries)
	}
}
