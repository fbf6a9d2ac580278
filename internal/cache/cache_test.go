package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	c.Set("products:list:shoes:all", []string{"air max"})

	value, found := c.Get("products:list:shoes:all")
	assert.True(t, found)
	assert.Equal(t, []string{"air max"}, value)

	_, found = c.Get("products:list:bags:all")
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	c := New(10 * time.Millisecond)
	defer c.Close()

	c.Set("key", "value")
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestDeleteByPrefix(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	c.Set("products:list:shoes:all", 1)
	c.Set("products:list:shoes:summer", 2)
	c.Set("products:list:bags:all", 3)

	c.DeleteByPrefix("products:list:shoes:")

	_, found := c.Get("products:list:shoes:all")
	assert.False(t, found)
	_, found = c.Get("products:list:shoes:summer")
	assert.False(t, found)
	_, found = c.Get("products:list:bags:all")
	assert.True(t, found)
}

func TestClear(t *testing.T) {
	c := New(time.Hour)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}
