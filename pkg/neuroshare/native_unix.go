//go:build darwin || freebsd || linux

package neuroshare

import "github.com/ebitengine/purego"

// openLibrary loads the shared object with immediate symbol binding, so a
// library with unresolvable dependencies fails here rather than mid-call.
func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func closeLibrary(handle uintptr) error {
	return purego.Dlclose(handle)
}
