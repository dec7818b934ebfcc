package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	appcfg "flipmart/internal/infra/config"
)

// resolveJWTSecret resolves the credential signing secret.
//
// Resolution order:
// 1) JWT_SECRET env (local/dev)
// 2) Secret Manager: projects/<project>/secrets/<JWT_SECRET_NAME>/versions/latest
func resolveJWTSecret(ctx context.Context, cfg *appcfg.Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("di: cfg is nil")
	}

	if s := strings.TrimSpace(cfg.JWTSecret); s != "" {
		return []byte(s), nil
	}

	name := strings.TrimSpace(cfg.JWTSecretName)
	prj := strings.TrimSpace(cfg.GCPProjectID)
	if name == "" || prj == "" {
		return nil, errors.New("di: JWT_SECRET or (JWT_SECRET_NAME + GCP_PROJECT_ID) must be set")
	}

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, errors.New("di: secretmanager client: " + err.Error())
	}
	defer sm.Close()

	fullName := "projects/" + prj + "/secrets/" + name + "/versions/latest"
	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: fullName})
	if err != nil {
		return nil, errors.New("di: AccessSecretVersion failed (" + fullName + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil || len(resp.Payload.Data) == 0 {
		return nil, errors.New("di: empty secret payload (" + fullName + ")")
	}

	return []byte(strings.TrimSpace(string(resp.Payload.Data))), nil
}
