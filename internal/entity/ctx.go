package entity

import "context"

type (
	CtxKeyWorkspace struct{}
	CtxKeyClaims    struct{}
)

func WorkspaceFromCtx(ctx context.Context) string {
	ws, ok := ctx.Value(CtxKeyWorkspace{}).(string)
	if !ok {
		return ""
	}

	return ws
}

func ClaimsFromCtx(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(CtxKeyClaims{}).(*SessionClaims)
	return claims, ok
}
