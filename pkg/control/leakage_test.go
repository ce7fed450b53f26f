package control

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

// TestNoProviderSDKTypeLeakage: the declared
// types of every control-plane contract method must not reference a
// provider SDK package (aws-sdk-go-v2, smithy-go, and so on). Walking the
// method set via reflection is how to check a structural property like
// this without hand-maintaining a list of every service's methods.
func TestNoProviderSDKTypeLeakage(t *testing.T) {
	services := []any{
		(*WebHostingService)(nil),
		(*FunctionHostingService)(nil),
		(*BatchService)(nil),
		(*QueueService)(nil),
		(*EventBusService)(nil),
		(*SecretsService)(nil),
		(*ConfigurationService)(nil),
		(*NotificationService)(nil),
		(*DocumentStoreService)(nil),
		(*DataStoreService)(nil),
		(*ObjectStoreService)(nil),
		(*AuthenticationService)(nil),
		(*CacheService)(nil),
		(*ContainerRepoService)(nil),
	}
	for _, svc := range services {
		iface := reflect.TypeOf(svc).Elem()
		for i := 0; i < iface.NumMethod(); i++ {
			m := iface.Method(i)
			checkSignatureTypes(t, iface.Name()+"."+m.Name, m.Type)
		}
	}
}

func checkSignatureTypes(t *testing.T, label string, fn reflect.Type) {
	t.Helper()
	n := fn.NumIn()
	for i := 0; i < n; i++ {
		checkLeakage(t, label, fn.In(i))
	}
	for i := 0; i < fn.NumOut(); i++ {
		checkLeakage(t, label, fn.Out(i))
	}
}

var bannedSDKPackageFragments = []string{
	"aws/aws-sdk-go-v2",
	"aws-sdk-go-v2/service",
	"aws-sdk-go-v2/aws",
	"smithy-go",
	"go-redis",
	"lib/pq",
}

func checkLeakage(t *testing.T, label string, typ reflect.Type) {
	t.Helper()
	switch typ.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
		checkLeakage(t, label, typ.Elem())
		return
	case reflect.Map:
		checkLeakage(t, label, typ.Key())
		checkLeakage(t, label, typ.Elem())
		return
	}
	if typ == reflect.TypeOf((*context.Context)(nil)).Elem() {
		return
	}
	pkg := typ.PkgPath()
	if pkg == "" {
		return
	}
	for _, frag := range bannedSDKPackageFragments {
		if strings.Contains(pkg, frag) {
			t.Fatalf("%s exposes %s from package %q: a provider SDK type leaked into the contract surface", label, typ, pkg)
		}
	}
}
