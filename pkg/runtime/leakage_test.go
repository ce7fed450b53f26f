package runtime

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

// TestNoProviderSDKTypeLeakage is the data-plane half of the no-SDK-type
// check; see pkg/control's test of the same name for the control-plane
// half and the rationale for checking this structurally via reflection.
func TestNoProviderSDKTypeLeakage(t *testing.T) {
	clients := []any{
		(*QueueClient)(nil),
		(*ObjectClient)(nil),
		(*SecretsClient)(nil),
		(*ConfigClient)(nil),
		(*EventPublisher)(nil),
		(*NotificationClient)(nil),
		(*DocumentClient)(nil),
		(*DataClient)(nil),
		(*AuthClient)(nil),
		(*CacheClient)(nil),
		(*ContainerRepoClient)(nil),
	}
	for _, client := range clients {
		iface := reflect.TypeOf(client).Elem()
		for i := 0; i < iface.NumMethod(); i++ {
			m := iface.Method(i)
			checkSignatureTypes(t, iface.Name()+"."+m.Name, m.Type)
		}
	}
}

func checkSignatureTypes(t *testing.T, label string, fn reflect.Type) {
	t.Helper()
	for i := 0; i < fn.NumIn(); i++ {
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
