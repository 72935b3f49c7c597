package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestValidBankAccount(t *testing.T) {
    assert.True(t, ValidBankAccount("19-2000145399/0800"))
    assert.True(t, ValidBankAccount("1240304389/0100"))
    assert.True(t, ValidBankAccount("12/0300"))

    assert.False(t, ValidBankAccount(""))
    assert.False(t, ValidBankAccount("1240304389"))
    assert.False(t, ValidBankAccount("1240304389/30"))
    assert.False(t, ValidBankAccount("-1240304389/0100"))
    assert.False(t, ValidBankAccount("1234567-12/0100"), "prefix longer than six digits")
    assert.False(t, ValidBankAccount("abc/0100"))
}

func TestValidPSC(t *testing.T) {
    assert.True(t, ValidPSC("70030"))
    assert.True(t, ValidPSC("11000"))

    assert.False(t, ValidPSC("700 30"))
    assert.False(t, ValidPSC("7003"))
    assert.False(t, ValidPSC("700300"))
    assert.False(t, ValidPSC(""))
}

func TestValidICO(t *testing.T) {
    assert.True(t, ValidICO("25596641"))
    assert.True(t, ValidICO("12345679"))

    // Wrong check digit.
    assert.False(t, ValidICO("25596642"))
    assert.False(t, ValidICO("12345678"))

    assert.False(t, ValidICO("2559664"), "too short")
    assert.False(t, ValidICO("255966411"), "too long")
    assert.False(t, ValidICO("2559664a"))
}
