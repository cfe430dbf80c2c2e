// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package widget is the terminal presentation layer: a compact Bubble Tea
program with a conversation list, a markdown message viewport, a text
input, and a usage badge.

It owns no protocol logic. Sends go through the chat controller, lists
through the conversations client, and allowance through the usage engine;
the widget only consumes the store and renders. Streamed deltas are batched
through a flush buffer at a capped frame rate so rendering stays smooth
without redrawing on every token.
*/
package widget
