// Package server exposes the HTTP surface of PromptDesk: the browser UI,
// chat proxy endpoints, image generation, artifact serving and the clear-all
// action. It depends only on the core store interfaces and the model
// contracts so stores and providers can be swapped in tests.
package server
