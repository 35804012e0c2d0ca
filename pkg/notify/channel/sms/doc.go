// Package sms implements the SMS delivery channel backed by Aliyun's
// dysmsapi gateway, plus an in-memory DevProvider for tests.
package sms
