package otel

import (
	"context"
	"testing"
)

func TestParseResourceAttributes(t *testing.T) {
	attrs := parseResourceAttributes("deployment=dev, toolchain = mfek ,invalid,=skip")
	if attrs["deployment"] != "dev" {
		t.Fatalf("expected deployment=dev, got %q", attrs["deployment"])
	}
	if attrs["toolchain"] != "mfek" {
		t.Fatalf("expected toolchain=mfek, got %q", attrs["toolchain"])
	}
	if _, ok := attrs["invalid"]; ok {
		t.Fatalf("expected invalid attribute to be skipped")
	}
	if _, ok := attrs[""]; ok {
		t.Fatalf("expected empty key to be skipped")
	}
	if parseResourceAttributes(" , ") != nil {
		t.Fatalf("expected nil for no attributes")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"http://127.0.0.1:4318":  "127.0.0.1:4318",
		"https://localhost:4318": "localhost:4318",
		"127.0.0.1:4318/":        "127.0.0.1:4318",
		"":                       "",
	}
	for input, expected := range cases {
		if got := normalizeEndpoint(input); got != expected {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestSDKOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvSDKEnabled, "true")
	t.Setenv(EnvServiceName, "mfek-test")
	t.Setenv(EnvResourceAttributes, "deployment=staging")
	t.Setenv(EnvHTTPEndpoint, "127.0.0.1:9998")

	opts := SDKOptionsFromEnv()
	if !opts.Enabled {
		t.Fatalf("expected Enabled true")
	}
	if opts.ServiceName != "mfek-test" {
		t.Fatalf("expected service name override, got %q", opts.ServiceName)
	}
	if opts.HTTPEndpoint != "127.0.0.1:9998" {
		t.Fatalf("expected http endpoint override, got %q", opts.HTTPEndpoint)
	}
	if opts.ResourceAttributes["deployment"] != "staging" {
		t.Fatalf("expected resource attribute deployment=staging, got %v", opts.ResourceAttributes)
	}
}

func TestSDKOptionsDefaults(t *testing.T) {
	t.Setenv(EnvSDKEnabled, "not-a-bool")
	t.Setenv(EnvServiceName, "")

	opts := SDKOptionsFromEnv()
	if opts.Enabled {
		t.Fatalf("expected export to stay disabled")
	}
	if opts.ServiceName != defaultServiceName {
		t.Fatalf("expected default service name, got %q", opts.ServiceName)
	}
}

func TestSetupSDKDisabled(t *testing.T) {
	shutdown, err := SetupSDK(context.Background(), SDKOptions{})
	if err != nil {
		t.Fatalf("setup sdk: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
