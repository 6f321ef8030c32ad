package modelapi

// EMPTY_REPLY_FALLBACK is substituted when the provider returns a 2xx with
// no generated text. An empty model reply is not a hard failure.
const EMPTY_REPLY_FALLBACK = "I'm here for you. Could you tell me more about how you're feeling?"
