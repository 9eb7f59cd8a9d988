// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"popshop/internal/models"
)

func testStoreAndProduct() (*models.Store, *models.Product) {
	st := &models.Store{ID: uuid.New(), Slug: "ab12cd34", Name: "Trailside Coffee"}
	p := &models.Product{
		ID:          uuid.New(),
		StoreID:     st.ID,
		Name:        "Campfire Roast",
		Description: "A dark roast blend.",
		Price:       1499,
		ImageURL:    "https://cdn.test/roast.png",
	}
	return st, p
}

func TestNewWithoutSecretKey(t *testing.T) {
	if c := New(Config{}); c != nil {
		t.Error("expected nil client without a secret key")
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm url.Values
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm
		fmt.Fprint(w, `{"id":"cs_test_123","url":"https://checkout.stripe.com/pay/cs_test_123"}`)
	}))
	defer server.Close()

	c := New(Config{SecretKey: "sk_test_abc", SiteURL: "https://popshop.test/", BaseURL: server.URL})
	st, p := testStoreAndProduct()

	session, err := c.CreateCheckoutSession(context.Background(), st, p, 2)
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.ID != "cs_test_123" {
		t.Errorf("session id = %q", session.ID)
	}
	if !strings.Contains(session.URL, "checkout.stripe.com") {
		t.Errorf("session url = %q", session.URL)
	}

	if gotAuth != "Bearer sk_test_abc" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotPath != "/checkout/sessions" {
		t.Errorf("path = %q", gotPath)
	}
	checks := []struct{ key, want string }{
		{"mode", "payment"},
		{"payment_method_types[0]", "card"},
		{"line_items[0][price_data][currency]", "usd"},
		{"line_items[0][price_data][unit_amount]", "1499"},
		{"line_items[0][price_data][product_data][name]", "Campfire Roast"},
		{"line_items[0][quantity]", "2"},
		{"success_url", "https://popshop.test/s/ab12cd34?success=true"},
		{"cancel_url", "https://popshop.test/s/ab12cd34?canceled=true"},
		{"metadata[productId]", p.ID.String()},
		{"metadata[storeId]", st.ID.String()},
	}
	for _, tc := range checks {
		if got := gotForm.Get(tc.key); got != tc.want {
			t.Errorf("form[%s] = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestCreateCheckoutSessionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"card declined"}}`)
	}))
	defer server.Close()

	c := New(Config{SecretKey: "sk_test_abc", SiteURL: "https://popshop.test", BaseURL: server.URL})
	st, p := testStoreAndProduct()

	_, err := c.CreateCheckoutSession(context.Background(), st, p, 1)
	if err == nil || !strings.Contains(err.Error(), "402") {
		t.Fatalf("error = %v, want status in message", err)
	}
}

func signPayload(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	c := New(Config{SecretKey: "sk_test_abc", WebhookSecret: "whsec_xyz"})
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()
	ts := now.Unix()

	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_xyz", ts, payload))
	if err := c.VerifySignature(payload, header, now); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}

	bad := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_wrong", ts, payload))
	if err := c.VerifySignature(payload, bad, now); err == nil {
		t.Error("wrong-secret signature accepted")
	}

	tampered := append([]byte{}, payload...)
	tampered[0] = ' '
	if err := c.VerifySignature(tampered, header, now); err == nil {
		t.Error("tampered payload accepted")
	}

	stale := ts - int64((10 * time.Minute).Seconds())
	old := fmt.Sprintf("t=%d,v1=%s", stale, signPayload("whsec_xyz", stale, payload))
	if err := c.VerifySignature(payload, old, now); err == nil {
		t.Error("stale timestamp accepted")
	}

	if err := c.VerifySignature(payload, "", now); err == nil {
		t.Error("missing header accepted")
	}
	if err := c.VerifySignature(payload, "v1=deadbeef", now); err == nil {
		t.Error("header without timestamp accepted")
	}
}

func TestVerifySignatureMultipleV1(t *testing.T) {
	c := New(Config{SecretKey: "sk_test_abc", WebhookSecret: "whsec_xyz"})
	payload := []byte(`{}`)
	now := time.Now()
	ts := now.Unix()

	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", ts, "deadbeef", signPayload("whsec_xyz", ts, payload))
	if err := c.VerifySignature(payload, header, now); err != nil {
		t.Errorf("rotation header rejected: %v", err)
	}
}

func TestVerifySignatureSkippedWithoutSecret(t *testing.T) {
	c := New(Config{SecretKey: "sk_test_abc"})
	if err := c.VerifySignature([]byte(`{}`), "", time.Now()); err != nil {
		t.Errorf("verification should be skipped without a secret: %v", err)
	}
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_123",
			"customer_details": {"email": "buyer@example.com"}
		}}
	}`)

	event, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if event.Type != EventCheckoutCompleted {
		t.Errorf("type = %q", event.Type)
	}
	if event.SessionID != "cs_test_123" {
		t.Errorf("session id = %q", event.SessionID)
	}
	if event.CustomerEmail == nil || *event.CustomerEmail != "buyer@example.com" {
		t.Errorf("customer email = %v", event.CustomerEmail)
	}
}

func TestParseEventNoEmail(t *testing.T) {
	event, err := ParseEvent([]byte(`{"type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`))
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if event.Type != "payment_intent.created" || event.CustomerEmail != nil {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestParseEventMalformed(t *testing.T) {
	if _, err := ParseEvent([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}
