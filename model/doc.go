// Package model defines the provider-agnostic contracts for chat completion
// and image generation, plus mock implementations for tests. Concrete
// adapters live in subpackages (openai, anthropic) and translate the
// normalized request/response structures into vendor SDK calls.
package model
