package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("default addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Fees.ServiceFeePercent != 10.0 {
		t.Errorf("default service fee percent = %v, want 10", cfg.Fees.ServiceFeePercent)
	}
	if cfg.Dispatch.LeadMinutes != 5 {
		t.Errorf("default dispatch lead = %v, want 5", cfg.Dispatch.LeadMinutes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JETFOOD_HTTP_ADDR", ":9999")
	t.Setenv("JETFOOD_SERVICE_FEE_PERCENT", "12.5")
	t.Setenv("JETFOOD_DISPATCH_TICK", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.HTTP.Addr)
	}
	if cfg.Fees.ServiceFeePercent != 12.5 {
		t.Errorf("service fee percent = %v, want 12.5", cfg.Fees.ServiceFeePercent)
	}
	if cfg.Dispatch.TickSeconds != 1 {
		t.Errorf("dispatch tick = %v, want 1", cfg.Dispatch.TickSeconds)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("JETFOOD_DISPATCH_TICK", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dispatch.TickSeconds != 5 {
		t.Errorf("dispatch tick = %v, want default 5", cfg.Dispatch.TickSeconds)
	}
}
