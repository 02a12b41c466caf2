// libnova exposes the launcher core as a C shared library:
//
//	go build -buildmode=c-shared -o libnova.so ./cmd/libnova
//
// Every returned string is owned by the caller and must be released with
// nova_string_free. Errors surface as NULL returns; the embedder treats a
// NULL from any call as "operation failed, core still usable".
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"encoding/json"
	"fmt"
	"os"
	"unsafe"

	"nova/internal/config"
	"nova/internal/demo"
	"nova/internal/host"
)

var registry = host.NewRegistry()

// ownedString copies s into C-owned memory.
func ownedString(s string) *C.char {
	return C.CString(s)
}

//export nova_core_new
func nova_core_new(configPath *C.char) C.uint64_t {
	path := ""
	if configPath != nil {
		path = C.GoString(configPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nova: %v\n", err)
		return 0
	}
	core, err := host.NewCore(cfg, host.WithExtension(&host.Extension{
		Manifest: demo.Manifest(),
		Commands: demo.Commands(),
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "nova: %v\n", err)
		return 0
	}
	return C.uint64_t(registry.Register(core))
}

//export nova_core_free
func nova_core_free(handle C.uint64_t) {
	if core := registry.Free(host.Handle(handle)); core != nil {
		_ = core.Close()
	}
}

//export nova_core_search
func nova_core_search(handle C.uint64_t, query *C.char, maxResults C.int) *C.char {
	core := registry.Get(host.Handle(handle))
	if core == nil || query == nil {
		return nil
	}
	data, err := core.Search(C.GoString(query), int(maxResults))
	if err != nil {
		return nil
	}
	return ownedString(string(data))
}

//export nova_core_execute
func nova_core_execute(handle C.uint64_t, index C.int, input *C.char) *C.char {
	core := registry.Get(host.Handle(handle))
	if core == nil {
		return nil
	}
	var raw json.RawMessage
	if input != nil {
		raw = json.RawMessage(C.GoString(input))
	}
	data, err := core.Execute(int(index), raw)
	if err != nil {
		return nil
	}
	return ownedString(string(data))
}

//export nova_core_dispatch
func nova_core_dispatch(handle C.uint64_t, token *C.char, input *C.char) *C.char {
	core := registry.Get(host.Handle(handle))
	if core == nil || token == nil {
		return nil
	}
	var raw json.RawMessage
	if input != nil {
		raw = json.RawMessage(C.GoString(input))
	}
	data, err := core.DispatchToken(C.GoString(token), raw)
	if err != nil {
		return nil
	}
	return ownedString(string(data))
}

//export nova_core_tree
func nova_core_tree(handle C.uint64_t) *C.char {
	core := registry.Get(host.Handle(handle))
	if core == nil {
		return nil
	}
	tree := core.SessionTree()
	if tree == nil {
		return nil
	}
	return ownedString(string(tree))
}

//export nova_core_close_session
func nova_core_close_session(handle C.uint64_t) {
	if core := registry.Get(host.Handle(handle)); core != nil {
		core.CloseSession()
	}
}

//export nova_core_poll_clipboard
func nova_core_poll_clipboard(handle C.uint64_t, content *C.char) C.int {
	core := registry.Get(host.Handle(handle))
	if core == nil || content == nil {
		return 0
	}
	if core.PollClipboard(C.GoString(content)) {
		return 1
	}
	return 0
}

//export nova_core_reload
func nova_core_reload(handle C.uint64_t) {
	if core := registry.Get(host.Handle(handle)); core != nil {
		core.Reload()
	}
}

//export nova_core_result_count
func nova_core_result_count(handle C.uint64_t) C.int {
	core := registry.Get(host.Handle(handle))
	if core == nil {
		return -1
	}
	return C.int(core.ResultCount())
}

//export nova_string_free
func nova_string_free(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func main() {}
